package render

// ClientScript is the live client. It opens the WebSocket named by the root
// element's data-live attribute, replaces the root's content on every
// {"type":"render"} message, and forwards clicks on elements marked with
// data-on-click as {"hid":..., "event":"onclick"}.
const ClientScript = `(function(){
var root=document.getElementById("root");
if(!root||!root.dataset.live)return;
var proto=location.protocol==="https:"?"wss://":"ws://";
var ws=new WebSocket(proto+location.host+root.dataset.live);
ws.onmessage=function(ev){
var msg=JSON.parse(ev.data);
if(msg.type==="render"){root.innerHTML=msg.html;}
};
root.addEventListener("click",function(ev){
var el=ev.target.closest("[data-on-click]");
if(!el||ws.readyState!==1)return;
ev.preventDefault();
ws.send(JSON.stringify({hid:el.dataset.hid,event:"onclick"}));
});
})();`
